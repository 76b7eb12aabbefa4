package main

import (
	cmd "github.com/redhat-openshift-ecosystem/rp-jump/cmd/rpjump"
)

func main() {
	cmd.Execute()
}
