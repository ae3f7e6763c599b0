package main

import "github.com/frahmantamala/school-admin/cmd"

func main() {
	cmd.Execute()
}
