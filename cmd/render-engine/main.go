package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/GhoulMac/render-engine/internal/collection"
	"github.com/GhoulMac/render-engine/internal/config"
	"github.com/GhoulMac/render-engine/internal/relogger"
	"github.com/GhoulMac/render-engine/internal/site"
)

var CLI struct {
	Build CommandBuild `cmd:"" aliases:"b" help:"Renders the site into the output directory."`

	ConfigFile string `short:"c" help:"configuration file path (optional)"`
}

type CommandBuild struct {
	Strict bool `help:"Remove the output directory and the build cache before rendering."`
	DryRun bool `help:"Report written/skipped without touching the output."`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

func main() {
	godotenv.Load()

	ctx := kong.Parse(&CLI, kong.UsageOnError())

	err := ctx.Run(ctx)
	if err != nil {
		relogger.Error("msg", "Build failed", "err", err)
		os.Exit(1)
	}
}

func applyVerbose(v int) {
	switch v {
	case 0:
		relogger.ApplyLogLevel("info")
	case 1:
		relogger.ApplyLogLevel("debug")
	default:
		relogger.ApplyLogLevel("all")
	}
}

func (r *CommandBuild) Run(ctx *kong.Context) error {
	applyVerbose(r.Verbose)

	cfg, err := config.Load(CLI.ConfigFile)
	if err != nil {
		return err
	}

	s, err := site.New(cfg)
	if err != nil {
		return err
	}

	for _, cc := range cfg.Collections {
		if err := s.RegisterCollection(collectionFromConf(cc)); err != nil {
			return err
		}
	}

	return s.Render(site.RenderOptions{
		Verbose: r.Verbose > 0,
		DryRun:  r.DryRun,
		Strict:  r.Strict,
	})
}

func collectionFromConf(cc config.CollectionConf) *collection.Collection {
	c := collection.New(cc.Title)
	if cc.ContentPath != "" {
		c.ContentPath = cc.ContentPath
	}
	if len(cc.Includes) > 0 {
		c.Includes = cc.Includes
	}
	if cc.Template != "" {
		c.Template = cc.Template
	}
	if len(cc.Routes) > 0 {
		c.Routes = cc.Routes
	}
	c.HasArchive = cc.HasArchive
	if cc.ArchiveTmpl != "" {
		c.ArchiveTemplate = cc.ArchiveTmpl
	}
	if cc.ArchiveSlug != "" {
		c.ArchiveSlug = cc.ArchiveSlug
	}
	c.ArchiveReverse = cc.ArchiveReverse
	c.Subcollections = cc.Subcollections
	for _, f := range cc.Feeds {
		c.Feeds = append(c.Feeds, collection.FeedDecl{Title: f.Title, Description: f.Description})
	}
	return c
}
