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

// mockExtractor records calls to Extract for verification
type mockExtractor struct {
	calls      []extractCall
	shouldFail bool
	failError  error
}

type extractCall struct {
	req        *media.ExtractRequest
	outputPath string
	args       []string
}

func (m *mockExtractor) Extract(ctx context.Context, req *media.ExtractRequest, outputPath string) error {
	if m.shouldFail {
		return m.failError
	}
	args := []string{"-i", req.Source.String()}
	if req.HasRange() {
		args = append(args, "-ss", req.Start.String(), "-to", req.End.String())
	}
	args = append(args,
		"-vn",
		"-acodec", "libmp3lame",
		"-ab", req.Bitrate,
		"-y", outputPath,
	)
	m.calls = append(m.calls, extractCall{
		req:        req,
		outputPath: outputPath,
		args:       args,
	})
	return nil
}

// extractContext holds test state for audio extraction scenarios
type extractContext struct {
	sourcePath  string
	outputDir   string
	bitrate     string
	startTime   string
	endTime     string
	extractor   *mockExtractor
	fileChecker *mockFileChecker
	sniffer     *mockSniffer
	output      *bytes.Buffer
	err         error
	resultPath  string
}

// SharedExtractContext is reset before each scenario via Before hook
var SharedExtractContext *extractContext

func getExtractContext() *extractContext {
	return SharedExtractContext
}

func InitializeExtractScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedExtractContext = &extractContext{
			extractor:   &mockExtractor{},
			fileChecker: &mockFileChecker{existingFiles: make(map[string]bool)},
			sniffer:     &mockSniffer{types: make(map[string]string)},
			output:      &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedExtractContext = nil
		return c, nil
	})

	ctx.Step(`^the audio output directory is "([^"]*)"$`, theAudioOutputDirectoryIs)
	ctx.Step(`^a source media file at "([^"]*)"$`, aSourceMediaFileAt)
	ctx.Step(`^no source media file exists at "([^"]*)"$`, noSourceMediaFileExistsAt)
	ctx.Step(`^I extract audio from the source$`, iExtractAudioFromTheSource)
	ctx.Step(`^I extract audio with bitrate "([^"]*)"$`, iExtractAudioWithBitrate)
	ctx.Step(`^I extract audio between "([^"]*)" and "([^"]*)"$`, iExtractAudioBetweenAnd)
	ctx.Step(`^I attempt to extract audio with bitrate "([^"]*)"$`, iAttemptToExtractAudioWithBitrate)
	ctx.Step(`^I attempt to extract audio from the source$`, iAttemptToExtractAudioFromTheSource)
	ctx.Step(`^the audio output file should be "([^"]*)"$`, theAudioOutputFileShouldBe)
	ctx.Step(`^the extraction output should mention "([^"]*)"$`, theExtractionOutputShouldMention)
	ctx.Step(`^the audio extraction should have used arguments:$`, theAudioExtractionShouldHaveUsedArguments)
	ctx.Step(`^the audio extraction arguments should not include "([^"]*)"$`, theAudioExtractionArgumentsShouldNotInclude)
	ctx.Step(`^the extraction should fail with an invalid bitrate error$`, theExtractionShouldFailWithAnInvalidBitrateError)
	ctx.Step(`^the extraction should fail because the source file is missing$`, theExtractionShouldFailBecauseTheSourceFileIsMissing)
}

func theAudioOutputDirectoryIs(dir string) error {
	e := getExtractContext()
	e.outputDir = dir
	return nil
}

func aSourceMediaFileAt(path string) error {
	e := getExtractContext()
	e.sourcePath = path
	e.fileChecker.existingFiles[path] = true
	return nil
}

func noSourceMediaFileExistsAt(path string) error {
	e := getExtractContext()
	e.sourcePath = path
	e.fileChecker.existingFiles[path] = false
	return nil
}

func iExtractAudioFromTheSource() error {
	e := getExtractContext()

	e.err = cmd.RunExtractAudioWithDependencies(
		context.Background(),
		e.extractor,
		e.fileChecker,
		e.sniffer,
		e.outputDir,
		e.bitrate,
		e.sourcePath,
		e.startTime,
		e.endTime,
		e.output,
	)

	if e.err != nil {
		return fmt.Errorf("unexpected error: %v", e.err)
	}

	if len(e.extractor.calls) > 0 {
		e.resultPath = e.extractor.calls[0].outputPath
	}
	return nil
}

func iExtractAudioWithBitrate(bitrate string) error {
	e := getExtractContext()
	e.bitrate = bitrate

	e.err = cmd.RunExtractAudioWithDependencies(
		context.Background(),
		e.extractor,
		e.fileChecker,
		e.sniffer,
		e.outputDir,
		e.bitrate,
		e.sourcePath,
		e.startTime,
		e.endTime,
		e.output,
	)

	if e.err != nil {
		return fmt.Errorf("unexpected error: %v", e.err)
	}

	if len(e.extractor.calls) > 0 {
		e.resultPath = e.extractor.calls[0].outputPath
	}
	return nil
}

func iExtractAudioBetweenAnd(start, end string) error {
	e := getExtractContext()
	e.startTime = start
	e.endTime = end

	e.err = cmd.RunExtractAudioWithDependencies(
		context.Background(),
		e.extractor,
		e.fileChecker,
		e.sniffer,
		e.outputDir,
		e.bitrate,
		e.sourcePath,
		e.startTime,
		e.endTime,
		e.output,
	)

	if e.err != nil {
		return fmt.Errorf("unexpected error: %v", e.err)
	}

	if len(e.extractor.calls) > 0 {
		e.resultPath = e.extractor.calls[0].outputPath
	}
	return nil
}

func iAttemptToExtractAudioWithBitrate(bitrate string) error {
	e := getExtractContext()
	e.bitrate = bitrate

	e.err = cmd.RunExtractAudioWithDependencies(
		context.Background(),
		e.extractor,
		e.fileChecker,
		e.sniffer,
		e.outputDir,
		e.bitrate,
		e.sourcePath,
		e.startTime,
		e.endTime,
		e.output,
	)
	return nil
}

func iAttemptToExtractAudioFromTheSource() error {
	e := getExtractContext()

	e.err = cmd.RunExtractAudioWithDependencies(
		context.Background(),
		e.extractor,
		e.fileChecker,
		e.sniffer,
		e.outputDir,
		e.bitrate,
		e.sourcePath,
		e.startTime,
		e.endTime,
		e.output,
	)
	return nil
}

func theAudioOutputFileShouldBe(expected string) error {
	e := getExtractContext()
	if e.resultPath != expected {
		return fmt.Errorf("expected output path %q, got %q", expected, e.resultPath)
	}
	return nil
}

func theExtractionOutputShouldMention(expected string) error {
	e := getExtractContext()
	if !strings.Contains(e.output.String(), expected) {
		return fmt.Errorf("expected output to mention %q, got: %s", expected, e.output.String())
	}
	return nil
}

func theAudioExtractionShouldHaveUsedArguments(table *godog.Table) error {
	e := getExtractContext()
	if len(e.extractor.calls) == 0 {
		return fmt.Errorf("ffmpeg audio extraction was not called")
	}

	call := e.extractor.calls[0]

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		expectedArg := row.Cells[0].Value
		found := false
		for _, arg := range call.args {
			if arg == expectedArg {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("expected argument %q not found in ffmpeg audio call: %v", expectedArg, call.args)
		}
	}
	return nil
}

func theAudioExtractionArgumentsShouldNotInclude(arg string) error {
	e := getExtractContext()
	if len(e.extractor.calls) == 0 {
		return fmt.Errorf("ffmpeg audio extraction was not called")
	}
	for _, got := range e.extractor.calls[0].args {
		if got == arg {
			return fmt.Errorf("argument %q should not be present in ffmpeg audio call: %v", arg, e.extractor.calls[0].args)
		}
	}
	return nil
}

func theExtractionShouldFailWithAnInvalidBitrateError() error {
	e := getExtractContext()
	if e.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(e.err.Error(), "invalid audio bitrate") {
		return fmt.Errorf("expected error about invalid bitrate, got: %v", e.err)
	}
	return nil
}

func theExtractionShouldFailBecauseTheSourceFileIsMissing() error {
	e := getExtractContext()
	if e.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(e.err.Error(), "does not exist") {
		return fmt.Errorf("expected error about missing source file, got: %v", e.err)
	}
	return nil
}
