package config

const RED = "#990000"
const GREEN = "#009900"
const BLUE = "#000099"

// Palette is the rotation channels take their colours from, in order of first appearance.
var Palette = []string{RED, GREEN, BLUE}
