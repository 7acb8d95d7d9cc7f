package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/litescript/ls-orrery/internal/render"
)

func TestObserveStep(t *testing.T) {
	c := NewCollector(nil)

	c.ObserveStep(0.5, 100, time.Millisecond)
	c.ObserveStep(0.5, 100, 2*time.Millisecond)
	c.ObserveStep(0.5, 0, time.Millisecond)

	if got := testutil.ToFloat64(c.framesTotal); got != 3 {
		t.Errorf("frames_total = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.simulatedSeconds); got != 100 {
		t.Errorf("simulated_seconds_total = %v, want 100", got)
	}
	if got := testutil.CollectAndCount(c.stepDuration); got != 1 {
		t.Errorf("step_duration_seconds series = %d, want 1", got)
	}
}

func TestObserveReload(t *testing.T) {
	c := NewCollector(nil)

	c.ObserveReload("a.toml", nil)
	c.ObserveReload("a.toml", errors.New("bad"))
	c.ObserveReload("a.toml", errors.New("bad"))

	if got := testutil.ToFloat64(c.reloadsTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok reloads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.reloadsTotal.WithLabelValues("error")); got != 2 {
		t.Errorf("error reloads = %v, want 2", got)
	}
}

func TestStarRebuilds(t *testing.T) {
	c := NewCollector(nil)
	c.ObserveStarRebuild(4000, 100)
	c.ObserveStarRebuild(4100, 100)

	if got := testutil.ToFloat64(c.starRebuilds); got != 2 {
		t.Errorf("star_rebuilds_total = %v, want 2", got)
	}
}

func TestLiveResourcesGauge(t *testing.T) {
	reg := render.NewRegistry()
	c := NewCollector(reg)

	h := reg.Acquire(render.KindSphereMesh, "Earth", 1089)
	reg.Acquire(render.KindSphereMesh, "Mars", 1089)
	reg.Acquire(render.KindOrbitLine, "Earth", 129)

	want := map[render.Kind]int{render.KindSphereMesh: 2, render.KindOrbitLine: 1}
	if err := testutil.GatherAndCompare(c.Registry(), strings.NewReader(liveGauge(want)), "orrery_render_resources_live"); err != nil {
		t.Error(err)
	}

	if err := reg.Release(h); err != nil {
		t.Fatal(err)
	}
	want[render.KindSphereMesh] = 1
	if err := testutil.GatherAndCompare(c.Registry(), strings.NewReader(liveGauge(want)), "orrery_render_resources_live"); err != nil {
		t.Error(err)
	}
}

// liveGauge renders the expected exposition text, one line per kind.
func liveGauge(live map[render.Kind]int) string {
	var b strings.Builder
	b.WriteString("# HELP orrery_render_resources_live Render resources currently acquired\n")
	b.WriteString("# TYPE orrery_render_resources_live gauge\n")
	for _, k := range render.Kinds() {
		fmt.Fprintf(&b, "orrery_render_resources_live{kind=%q} %d\n", k.String(), live[k])
	}
	return b.String()
}

func TestHandler(t *testing.T) {
	c := NewCollector(nil)
	c.ObserveStep(1, 1, time.Millisecond)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "orrery_frames_total 1") {
		t.Errorf("scrape missing frames counter:\n%s", body)
	}
}
