package web

const indexTemplate = `{{define "index"}}<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"></script>
<style>
body { background: #111; color: #ddd; font-family: monospace; margin: 1em; }
#plot { width: 100%; height: 80vh; background: #fff; }
#plot polyline { fill: none; stroke-width: 1.5; }
.channel { cursor: pointer; margin-right: 1em; }
.channel.hidden { opacity: 0.3; text-decoration: line-through; }
</style>
<script>
function plot(p) {
  var svg = document.getElementById("plot");
  var w = Math.max(p.x[1] - p.x[0], 1);
  var h = Math.max(p.y[1] - p.y[0], 1e-9);
  svg.setAttribute("viewBox", p.x[0] + " " + (-p.y[1]) + " " + w + " " + h);
  var lines = p.lines.map(function (l) {
    var el = document.createElementNS("http://www.w3.org/2000/svg", "polyline");
    el.setAttribute("points", l.pts);
    el.setAttribute("stroke", l.c);
    el.setAttribute("vector-effect", "non-scaling-stroke");
    return el;
  });
  svg.replaceChildren.apply(svg, lines);
  document.getElementById("limits").textContent =
    "x [" + p.x[0] + ", " + p.x[1] + "]  y [" + p.y[0].toPrecision(4) + ", " + p.y[1].toPrecision(4) + "]";
}
</script>
</head>
<body data-signals="{channel: -1}" data-init="@get('/frames')">
<h1>{{.Title}}</h1>
<svg id="plot" preserveAspectRatio="none" viewBox="0 0 1 1"></svg>
<div>time <span id="limits"></span></div>
{{template "legend" .Legend}}
</body>
</html>{{end}}

{{define "legend"}}<div id="legend">{{range .}}<span id="channel-{{.Channel}}" class="channel{{if .Hidden}} hidden{{end}}" style="color: {{.Colour}}" data-on:click="$channel = {{.Channel}}; @post('/toggle-channel')">ch{{.Channel}}</span>{{end}}</div>{{end}}
`
