//go:build !gocv

package main

import "github.com/hanckmann/webcamrec/app"

func registerGocv(app.Openers) {}
