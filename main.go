package main

import (
	"fmt"
	"os"

	"fjacquet/bankstmt/cmd/batch"
	"fjacquet/bankstmt/cmd/categorize"
	"fjacquet/bankstmt/cmd/correct"
	"fjacquet/bankstmt/cmd/detect"
	"fjacquet/bankstmt/cmd/layouts"
	"fjacquet/bankstmt/cmd/parse"
	"fjacquet/bankstmt/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(detect.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(correct.Cmd)
	root.Cmd.AddCommand(layouts.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
