package main

import "github.com/ManojKumarRabidas/Vyakaranaa/cmd/vyakaranaa/cmd"

func main() {
	cmd.Execute()
}
