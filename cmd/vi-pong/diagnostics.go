package main

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/vi-pong/core"
)

const statsViewAddr = "localhost:18066"

// launchStatsView serves runtime charts in the background and returns its stop function
func launchStatsView(log logrus.FieldLogger) (stop func()) {
	viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(statsViewAddr))
	mgr := statsview.New()
	core.Go(func() {
		mgr.Start()
	})
	log.WithField("addr", "http://"+statsViewAddr+"/debug/statsview").Info("Stats view started")
	return mgr.Stop
}
