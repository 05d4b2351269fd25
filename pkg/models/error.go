package models

import "encoding/json"

type ErrorPayload struct {
	Error string `json:"error"`
}

func CreateError(msg string) []byte {
	err, _ := json.Marshal(ErrorPayload{
		Error: msg,
	})
	return err
}
