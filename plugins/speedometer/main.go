// Command speedometer builds the speedometer display plugin:
//
//	go build -buildmode=plugin -o plugins/speedometer.so ./plugins/speedometer
package main

import (
	"codeberg.org/mutker/carconsole/internal/plugin"
	"codeberg.org/mutker/carconsole/internal/plugins/speedometer"
)

var ABIVersion = plugin.ABIVersion

func NewPlugin() plugin.Plugin {
	return speedometer.New()
}

func main() {}
