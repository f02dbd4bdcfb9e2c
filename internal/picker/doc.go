// Package picker provides the interactive network chooser used by
// wifid-ctl connect --pick. It lists stored networks most recently
// used first and returns the chosen SSID.
package picker
