package main

import (
	"github.com/hanckmann/webcamrec/app"
	"github.com/hanckmann/webcamrec/config"
	"github.com/hanckmann/webcamrec/ui/view/tkview"
)

// surfaceOpeners registers the GUI surfaces linked into this binary.
func surfaceOpeners(cfg *config.Config) app.Openers {
	openers := app.Openers{
		config.SurfaceTk: tkview.Opener(tkview.Options{
			PreviewWidth:  cfg.Display.PreviewWidth,
			PreviewHeight: cfg.Display.PreviewHeight,
			Dark:          cfg.Display.Dark,
		}),
	}
	registerGocv(openers)
	return openers
}
