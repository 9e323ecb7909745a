/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import (
	"github.com/josephgoksu/taskapi/cmd"
	"github.com/josephgoksu/taskapi/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
