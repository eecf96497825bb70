package main

import "github.com/KaramelBytes/dataconfig-cli/cmd"

func main() {
	cmd.Execute()
}
