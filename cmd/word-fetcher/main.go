package main

import "github.com/Wangkaiwei233/word-fetcher/internal/cmd"

func main() {
	cmd.Execute()
}
