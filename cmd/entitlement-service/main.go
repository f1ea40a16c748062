// Package main is the entry point of the entitlement service.
package main

import "github.com/Cheertaboi/admissions-entitlement-service/cmd/entitlement-service/cmd"

func main() {
	cmd.Execute()
}
