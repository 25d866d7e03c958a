package ledger

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// recordABI pins the contract surface the gateway depends on. The
// `patients` entry is the auto-generated getter of the public mapping:
// it returns the struct's scalar fields (arrays excluded) plus the
// existence flag.
const recordABI = `[
  {
    "type": "function", "name": "patients", "stateMutability": "view",
    "inputs": [{"name": "", "type": "address"}],
    "outputs": [
      {"name": "name", "type": "string"},
      {"name": "medicalFolder", "type": "string"},
      {"name": "phoneNumber", "type": "string"},
      {"name": "email", "type": "string"},
      {"name": "age", "type": "uint256"},
      {"name": "gender", "type": "string"},
      {"name": "medicalDescription", "type": "string"},
      {"name": "exists", "type": "bool"}
    ]
  },
  {
    "type": "function", "name": "getPatientData", "stateMutability": "view",
    "inputs": [{"name": "patient", "type": "address"}],
    "outputs": [
      {"name": "name", "type": "string"},
      {"name": "medicalFolder", "type": "string"},
      {"name": "phoneNumber", "type": "string"},
      {"name": "email", "type": "string"},
      {"name": "age", "type": "uint256"},
      {"name": "gender", "type": "string"},
      {"name": "medicalDescription", "type": "string"},
      {"name": "temperatures", "type": "int256[]"},
      {"name": "timestamps", "type": "uint256[]"}
    ]
  },
  {
    "type": "function", "name": "searchPatient", "stateMutability": "view",
    "inputs": [
      {"name": "name", "type": "string"},
      {"name": "medicalFolder", "type": "string"}
    ],
    "outputs": [
      {"name": "name", "type": "string"},
      {"name": "medicalFolder", "type": "string"},
      {"name": "phoneNumber", "type": "string"},
      {"name": "email", "type": "string"},
      {"name": "age", "type": "uint256"},
      {"name": "gender", "type": "string"},
      {"name": "medicalDescription", "type": "string"},
      {"name": "temperatures", "type": "int256[]"},
      {"name": "timestamps", "type": "uint256[]"}
    ]
  },
  {
    "type": "function", "name": "registerPatient", "stateMutability": "nonpayable",
    "inputs": [
      {"name": "name", "type": "string"},
      {"name": "medicalFolder", "type": "string"},
      {"name": "phoneNumber", "type": "string"},
      {"name": "email", "type": "string"},
      {"name": "age", "type": "uint256"},
      {"name": "gender", "type": "string"},
      {"name": "medicalDescription", "type": "string"}
    ],
    "outputs": []
  },
  {
    "type": "function", "name": "updatePatientInfo", "stateMutability": "nonpayable",
    "inputs": [
      {"name": "name", "type": "string"},
      {"name": "medicalFolder", "type": "string"},
      {"name": "phoneNumber", "type": "string"},
      {"name": "email", "type": "string"},
      {"name": "age", "type": "uint256"},
      {"name": "gender", "type": "string"},
      {"name": "medicalDescription", "type": "string"}
    ],
    "outputs": []
  },
  {
    "type": "function", "name": "recordTemperature", "stateMutability": "nonpayable",
    "inputs": [{"name": "temperature", "type": "int256"}],
    "outputs": []
  }
]`

var contractABI = mustParseABI()

func mustParseABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(recordABI))
	if err != nil {
		panic("ledger: bad contract ABI: " + err.Error())
	}
	return parsed
}
