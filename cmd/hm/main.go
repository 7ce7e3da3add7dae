package main

import "github.com/jfmyers9/harvestmedia/cmd"

func main() {
	cmd.Execute()
}
