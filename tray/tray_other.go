//go:build !darwin

package tray

import "time"

func Init() <-chan struct{} { return make(chan struct{}) }

func updateSessionIcon(bool, bool) {}

func updateTooltip(string) {}

func updateCopyLastTitle(time.Duration) {}
