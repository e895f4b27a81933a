package main

import (
	"os"
	"runtime/debug"

	"github.com/mezonai/xoledger/cmd"
	"github.com/mezonai/xoledger/logx"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			_ = logx.Errorf("XO CLIENT CRASHED: %v\n%s", r, debug.Stack())
			os.Exit(1)
		}
	}()

	cmd.Execute()
}
