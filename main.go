package main

import "github.com/mariustrier/TimeTrack-sub004/cmd"

func main() {
	cmd.Execute()
}
