package main

import "github.com/shailu9/MediaInfoApi/cmd"

func main() {
	cmd.Execute()
}
