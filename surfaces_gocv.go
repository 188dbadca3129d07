//go:build gocv

package main

import (
	"github.com/hanckmann/webcamrec/app"
	"github.com/hanckmann/webcamrec/config"
	"github.com/hanckmann/webcamrec/ui/view/cvview"
)

func registerGocv(openers app.Openers) {
	openers[config.SurfaceGocv] = cvview.Open
}
