package main

import "github.com/fakeyudi/tauri-browse/cmd"

func main() {
	cmd.Execute()
}
