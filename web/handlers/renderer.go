package web

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	ds "github.com/starfederation/datastar-go/datastar"

	"plotser/models"
)

// PLOT_PRECISION is the number of significant digits sent per point.
const PLOT_PRECISION = 7

type channelSig struct {
	Channel int `json:"channel"`
}

// FramesHandler streams every redraw to the client as a plot() call.
func (s *Surface) FramesHandler(w http.ResponseWriter, r *http.Request) {
	clientID := getClientID(w, r)
	sse := ds.NewSSE(w, r)

	_, pictures, cancel := s.hub.Subscribe()
	defer cancel()

	ctx := r.Context()
	lastLegend := ""
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.shutdown:
			return
		case picture, ok := <-pictures:
			if !ok {
				return
			}

			legend, err := s.renderLegend(clientID)
			if err != nil {
				s.logger.WithError(err).Error("couldn't execute legend template")
			} else if legend != lastLegend {
				if err := sse.PatchElements(legend); err != nil {
					s.logger.WithError(err).Debug("client went away")
					return
				}
				lastLegend = legend
			}

			script, err := buildPlotFunction(picture, s.hiddenChannels(clientID))
			if err != nil {
				s.logger.WithError(err).Warn("skipping frame")
				continue
			}
			if err := sse.ExecuteScript(script); err != nil {
				s.logger.WithError(err).Debug("client went away")
				return
			}
		}
	}
}

// ToggleChannelHandler is called when the client clicks a legend entry to hide or show that channel.
func (s *Surface) ToggleChannelHandler(w http.ResponseWriter, r *http.Request) {
	var sig channelSig
	if err := ds.ReadSignals(r, &sig); err != nil {
		s.logger.WithError(err).Warn("error reading signals")
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if sig.Channel < 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	clientID := getClientID(w, r)
	hidden := s.toggleHidden(clientID, sig.Channel)
	s.logger.WithFields(logrus.Fields{"client": clientID, "channel": sig.Channel, "hidden": hidden}).Debug("toggled channel")

	legend, err := s.renderLegend(clientID)
	if err != nil {
		s.logger.WithError(err).Error("couldn't execute legend template")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	sse := ds.NewSSE(w, r)
	_ = sse.PatchElements(legend)
}

func (s *Surface) renderLegend(clientID string) (string, error) {
	var buf strings.Builder
	err := s.templates.ExecuteTemplate(&buf, "legend", s.legend(clientID))
	return buf.String(), err
}

type plotLine struct {
	Channel int    `json:"ch"`
	Colour  string `json:"c"`
	Points  string `json:"pts"`
}

type plotCall struct {
	Seq   int        `json:"seq"`
	X     [2]float64 `json:"x"`
	Y     [2]float64 `json:"y"`
	Lines []plotLine `json:"lines"`
}

// buildPlotFunction renders picture as a call to the page's plot function. y is negated
// because svg y grows downwards. Points that aren't finite are left out of their line.
func buildPlotFunction(picture *models.Picture, hidden map[int]bool) (string, error) {
	call := plotCall{
		Seq:   picture.Seq,
		X:     [2]float64{picture.X.Min, picture.X.Max},
		Y:     [2]float64{picture.Y.Min, picture.Y.Max},
		Lines: make([]plotLine, 0, len(picture.Plots)),
	}

	for _, p := range picture.Plots {
		if hidden[p.Line.Channel] {
			continue
		}
		var points strings.Builder
		for i, x := range p.Xs {
			if i >= len(p.Ys) {
				break
			}
			y := p.Ys[i]
			if math.IsNaN(y) || math.IsInf(y, 0) {
				continue
			}
			if points.Len() > 0 {
				points.WriteByte(' ')
			}
			points.WriteString(strconv.Itoa(x))
			points.WriteByte(',')
			if y != 0 {
				// no "-0"
				y = -y
			}
			points.WriteString(strconv.FormatFloat(y, 'g', PLOT_PRECISION, 64))
		}
		call.Lines = append(call.Lines, plotLine{p.Line.Channel, p.Line.Colour, points.String()})
	}

	// Infinite axis limits can't be encoded.
	payload, err := json.Marshal(call)
	if err != nil {
		return "", fmt.Errorf("encode frame %d: %w", picture.Seq, err)
	}
	return "plot(" + string(payload) + ")", nil
}
