// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// Table 輸出模擬與優化前後的對照表
func (r *RunReport) Table() string {
	var sb strings.Builder
	if r.Simulation != nil {
		k, m := fmtSimulation(r.Simulation)
		sb.WriteString(fmtTable(r.GameName+" : simulation", k, m))
	}
	if r.Initial != nil {
		k, m := fmtPopulation(r.Initial)
		sb.WriteString(fmtTable(r.GameName+" : before optimize", k, m))
	}
	if r.Final != nil {
		k, m := fmtPopulation(r.Final)
		if r.Optimizer != nil {
			p := message.NewPrinter(lang)
			k = append(k, "Target RTP", "Iterations", "Converged")
			m["Target RTP"] = p.Sprintf("%.2f %%", r.Optimizer.Target)
			m["Iterations"] = p.Sprintf("%d", r.Optimizer.Iterations)
			m["Converged"] = fmt.Sprintf("%t", r.Optimizer.Converged)
		}
		sb.WriteString(fmtTable(r.GameName+" : after optimize", k, m))
	}
	return sb.String()
}

// FormatDuration 用時與每秒轉數
func FormatDuration(d time.Duration, spins int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	sps := int(float64(spins) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nsps : %d spins/sec\n", sec, sps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nsps : %d spins/sec\n", m, s, sps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nsps : %d spins/sec\n", h, m, s, sps)
}

func fmtSimulation(s *SimSummary) ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	m := map[string]string{
		"Spins":        p.Sprintf("%d", s.Spins),
		"Raw RTP":      p.Sprintf("%.2f %%", s.RTP),
		"RTP 95% CI":   p.Sprintf("[%.2f%%,%.2f%%]", s.RtpCI.Lo, s.RtpCI.Hi),
		"Hit Rate":     p.Sprintf("%.2f %%", s.HitRate),
		"Max Payout":   p.Sprintf("%.2f x", s.MaxPayout),
		"Line Wins":    p.Sprintf("%d", s.LineWins),
		"Scatter Wins": p.Sprintf("%d", s.ScatterWins),
		"Bonus":        p.Sprintf("%d (%.3f %%)", s.BonusTriggers, s.TriggerRate),
		"Capped":       p.Sprintf("%d", s.Capped),
		"STD":          p.Sprintf("%.3f", s.StdDev),
	}
	keys := []string{"Spins", "Raw RTP", "RTP 95% CI", "Hit Rate", "Max Payout", "Line Wins", "Scatter Wins", "Bonus", "Capped", "STD"}
	for _, d := range s.Dist {
		k := "Dist " + d.Label
		m[k] = p.Sprintf("%.3f %%", d.Percent)
		keys = append(keys, k)
	}
	return keys, m
}

func fmtPopulation(ps *PopulationStats) ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	m := map[string]string{
		"RTP":          p.Sprintf("%.2f %%", ps.RTP),
		"RTP 95% CI":   p.Sprintf("[%.2f%%,%.2f%%]", ps.RtpCI.Lo, ps.RtpCI.Hi),
		"Hit Freq":     p.Sprintf("%.2f %%", ps.HitFrequency),
		"Avg Win":      p.Sprintf("%.2f x", ps.AvgWin),
		"Max Win":      p.Sprintf("%.2f x", ps.MaxWin),
		"Volatility":   fmt.Sprintf("%s (std %.3f)", ps.Volatility, ps.StdDev),
		"Total Weight": p.Sprintf("%d", ps.TotalWeight),
	}
	keys := []string{"RTP", "RTP 95% CI", "Hit Freq", "Avg Win", "Max Win", "Volatility", "Total Weight"}
	for _, b := range ps.Buckets {
		k := "Weight " + b.Label
		m[k] = p.Sprintf("%.3f %%", b.Percent)
		keys = append(keys, k)
	}
	return keys, m
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := runewidth.StringWidth(title) - 1
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
