package main

import (
	"fmt"
	"os"

	"github.com/podgenius/podgenius-server/podservice"
)

func main() {
	if err := podservice.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
