package main

import (
	"os"

	"github.com/alecthomas/kong"
)

var cli struct {
	Config   string `short:"c" type:"path" default:"takeoff.yaml" help:"Path to a YAML config file"`
	LogLevel string `short:"l" help:"Override the configured log level"`

	Info      infoCmd      `cmd:"" help:"Print page sizes, scale notes and measurement annotations"`
	Render    renderCmd    `cmd:"" help:"Render pages to images, optionally with measurements painted on"`
	Import    importCmd    `cmd:"" name:"import" help:"Import polyline, polygon and line annotations of a page"`
	Calibrate calibrateCmd `cmd:"" help:"Set the scale of a page from two points and a real-world distance"`
	Draw      drawCmd      `cmd:"" help:"Add a line, area or count markers to a page"`
	Export    exportCmd    `cmd:"" help:"Export the quantity list of a page as CSV"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("pdftakeoff"),
		kong.Description("Measure lengths, areas and counts on PDF drawings."),
		kong.UsageOnError(),
	)

	a, err := newApp(cli.Config, cli.LogLevel, os.Stderr)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(a)
	a.close()
	ctx.FatalIfErrorf(err)
}
