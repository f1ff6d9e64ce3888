/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/conectly/userapi/cmd"

func main() {
	cmd.Execute()
}
