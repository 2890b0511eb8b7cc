package main

import (
	"fmt"

	"github.com/dorvan/moonlight-steam-shortcuts/pkg/version"
)

func runVersion() int {
	fmt.Println(version.Full())
	return 0
}
