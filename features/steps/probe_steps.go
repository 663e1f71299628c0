//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/shailu9/MediaInfoApi/cmd"
	"github.com/shailu9/MediaInfoApi/domain/media"

	"github.com/cucumber/godog"
)

// mockProber returns a canned report instead of running ffprobe
type mockProber struct {
	report     *media.Report
	err        error
	lastSource string
}

func (m *mockProber) Probe(ctx context.Context, src media.Source) (*media.Report, error) {
	m.lastSource = src.String()
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

// probeContext holds test state for probe scenarios
type probeContext struct {
	source      string
	prober      *mockProber
	fileChecker *mockFileChecker
	output      *bytes.Buffer
	err         error
}

// SharedProbeContext is reset before each scenario via Before hook
var SharedProbeContext *probeContext

func getProbeContext() *probeContext {
	return SharedProbeContext
}

func InitializeProbeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedProbeContext = &probeContext{
			prober:      &mockProber{report: &media.Report{}},
			fileChecker: &mockFileChecker{existingFiles: make(map[string]bool)},
			output:      &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedProbeContext = nil
		return c, nil
	})

	ctx.Step(`^a probe target at "([^"]*)" reported as container "([^"]*)" with duration "([^"]*)"$`, aProbeTargetAtReportedAs)
	ctx.Step(`^a remote probe target at "([^"]*)" reported as container "([^"]*)" with duration "([^"]*)"$`, aRemoteProbeTargetAtReportedAs)
	ctx.Step(`^no probe target exists at "([^"]*)"$`, noProbeTargetExistsAt)
	ctx.Step(`^the probed report carries an audio stream "([^"]*)"$`, theProbedReportCarriesAnAudioStream)
	ctx.Step(`^the probed report carries a video stream "([^"]*)"$`, theProbedReportCarriesAVideoStream)
	ctx.Step(`^I probe the source$`, iProbeTheSource)
	ctx.Step(`^I probe the source as JSON$`, iProbeTheSourceAsJSON)
	ctx.Step(`^I attempt to probe the source$`, iAttemptToProbeTheSource)
	ctx.Step(`^I attempt to probe "([^"]*)"$`, iAttemptToProbe)
	ctx.Step(`^the probe output should contain "([^"]*)"$`, theProbeOutputShouldContain)
	ctx.Step(`^the prober should have received "([^"]*)"$`, theProberShouldHaveReceived)
	ctx.Step(`^the probe should fail because the source file is missing$`, theProbeShouldFailBecauseTheSourceFileIsMissing)
	ctx.Step(`^the probe should fail with an unsupported scheme error$`, theProbeShouldFailWithAnUnsupportedSchemeError)
}

func aProbeTargetAtReportedAs(path, container, duration string) error {
	p := getProbeContext()
	p.source = path
	p.fileChecker.existingFiles[path] = true
	p.prober.report.Format = media.Format{
		Filename:   path,
		FormatName: container,
		Duration:   duration,
	}
	return nil
}

func aRemoteProbeTargetAtReportedAs(url, container, duration string) error {
	p := getProbeContext()
	p.source = url
	// No file checker entry: remote sources must skip the existence check
	p.prober.report.Format = media.Format{
		Filename:   url,
		FormatName: container,
		Duration:   duration,
	}
	return nil
}

func noProbeTargetExistsAt(path string) error {
	p := getProbeContext()
	p.source = path
	p.fileChecker.existingFiles[path] = false
	return nil
}

func theProbedReportCarriesAnAudioStream(codec string) error {
	p := getProbeContext()
	p.prober.report.Streams = append(p.prober.report.Streams, media.Stream{
		Index:     len(p.prober.report.Streams),
		CodecName: codec,
		CodecType: media.StreamTypeAudio,
	})
	return nil
}

func theProbedReportCarriesAVideoStream(codec string) error {
	p := getProbeContext()
	p.prober.report.Streams = append(p.prober.report.Streams, media.Stream{
		Index:     len(p.prober.report.Streams),
		CodecName: codec,
		CodecType: media.StreamTypeVideo,
	})
	return nil
}

func iProbeTheSource() error {
	p := getProbeContext()

	p.err = cmd.RunProbeWithDependencies(
		context.Background(),
		p.prober,
		p.fileChecker,
		p.source,
		false,
		p.output,
	)

	if p.err != nil {
		return fmt.Errorf("unexpected error: %v", p.err)
	}
	return nil
}

func iProbeTheSourceAsJSON() error {
	p := getProbeContext()

	p.err = cmd.RunProbeWithDependencies(
		context.Background(),
		p.prober,
		p.fileChecker,
		p.source,
		true,
		p.output,
	)

	if p.err != nil {
		return fmt.Errorf("unexpected error: %v", p.err)
	}
	return nil
}

func iAttemptToProbeTheSource() error {
	p := getProbeContext()

	p.err = cmd.RunProbeWithDependencies(
		context.Background(),
		p.prober,
		p.fileChecker,
		p.source,
		false,
		p.output,
	)
	return nil
}

func iAttemptToProbe(source string) error {
	p := getProbeContext()
	p.source = source

	p.err = cmd.RunProbeWithDependencies(
		context.Background(),
		p.prober,
		p.fileChecker,
		p.source,
		false,
		p.output,
	)
	return nil
}

func theProbeOutputShouldContain(expected string) error {
	p := getProbeContext()
	if !strings.Contains(p.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got: %s", expected, p.output.String())
	}
	return nil
}

func theProberShouldHaveReceived(source string) error {
	p := getProbeContext()
	if p.prober.lastSource != source {
		return fmt.Errorf("expected prober to receive %q, got %q", source, p.prober.lastSource)
	}
	return nil
}

func theProbeShouldFailBecauseTheSourceFileIsMissing() error {
	p := getProbeContext()
	if p.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(p.err.Error(), "does not exist") {
		return fmt.Errorf("expected error about missing source file, got: %v", p.err)
	}
	return nil
}

func theProbeShouldFailWithAnUnsupportedSchemeError() error {
	p := getProbeContext()
	if p.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(p.err.Error(), "unsupported source scheme") {
		return fmt.Errorf("expected error about unsupported scheme, got: %v", p.err)
	}
	return nil
}
