package models

type Operator struct {
	Email    string
	Name     string
	PassHash []byte
}
