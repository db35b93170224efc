package prcreate

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const (
	requiredValueMissingMessageConstant = "required value not provided"
	requiredPromptAttemptLimitConstant  = 3
	listSeparatorConstant               = ","
	affirmativeShortResponseConstant    = "y"
	affirmativeLongResponseConstant     = "yes"
	lineBreakConstant                   = "\n"
	carriageReturnConstant              = "\r"
)

// ErrRequiredValueMissing indicates a required prompt stayed empty after every attempt.
var ErrRequiredValueMissing = errors.New(requiredValueMissingMessageConstant)

// IOMetadataPrompter collects workflow input from an io.Reader, echoing prompts to a writer.
type IOMetadataPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOMetadataPrompter constructs a prompter from the provided reader and writer.
func NewIOMetadataPrompter(input io.Reader, output io.Writer) *IOMetadataPrompter {
	return &IOMetadataPrompter{reader: bufio.NewReader(input), writer: output}
}

// ReadRequiredLine prompts until a non-empty line arrives, aborting after a bounded number of attempts.
func (prompter *IOMetadataPrompter) ReadRequiredLine(prompt string) (string, error) {
	for attemptIndex := 0; attemptIndex < requiredPromptAttemptLimitConstant; attemptIndex++ {
		response, readError := prompter.readLine(prompt)
		if readError != nil {
			return "", readError
		}
		if len(response) > 0 {
			return response, nil
		}
	}
	return "", ErrRequiredValueMissing
}

// ReadLineWithDefault prompts once and substitutes the default when the response is empty.
func (prompter *IOMetadataPrompter) ReadLineWithDefault(prompt string, defaultValue string) (string, error) {
	response, readError := prompter.readLine(prompt)
	if readError != nil {
		return "", readError
	}
	if len(response) == 0 {
		return defaultValue, nil
	}
	return response, nil
}

// ReadMultiLine collects free text until end of input and returns the joined lines.
func (prompter *IOMetadataPrompter) ReadMultiLine(prompt string) (string, error) {
	if writeError := prompter.writePrompt(prompt); writeError != nil {
		return "", writeError
	}

	var collectedLines []string
	for {
		line, readError := prompter.reader.ReadString('\n')
		if len(line) > 0 {
			collectedLines = append(collectedLines, strings.TrimRight(line, lineBreakConstant+carriageReturnConstant))
		}
		if readError == io.EOF {
			break
		}
		if readError != nil {
			return "", readError
		}
	}

	return strings.TrimRight(strings.Join(collectedLines, lineBreakConstant), lineBreakConstant), nil
}

// ReadList prompts for a comma-separated list, substituting defaults when the response is empty.
func (prompter *IOMetadataPrompter) ReadList(prompt string, defaults []string) ([]string, error) {
	response, readError := prompter.readLine(prompt)
	if readError != nil {
		return nil, readError
	}
	if len(response) == 0 {
		return append([]string{}, defaults...), nil
	}

	entries := strings.Split(response, listSeparatorConstant)
	values := make([]string, 0, len(entries))
	for _, entry := range entries {
		trimmedEntry := strings.TrimSpace(entry)
		if len(trimmedEntry) == 0 {
			continue
		}
		values = append(values, trimmedEntry)
	}
	return values, nil
}

// Confirm writes the prompt and interprets affirmative responses (y/yes).
func (prompter *IOMetadataPrompter) Confirm(prompt string) (bool, error) {
	response, readError := prompter.readLine(prompt)
	if readError != nil {
		return false, readError
	}

	switch strings.ToLower(response) {
	case affirmativeShortResponseConstant, affirmativeLongResponseConstant:
		return true, nil
	default:
		return false, nil
	}
}

func (prompter *IOMetadataPrompter) readLine(prompt string) (string, error) {
	if writeError := prompter.writePrompt(prompt); writeError != nil {
		return "", writeError
	}

	response, readError := prompter.reader.ReadString('\n')
	if readError != nil && readError != io.EOF {
		return "", readError
	}
	return strings.TrimSpace(response), nil
}

func (prompter *IOMetadataPrompter) writePrompt(prompt string) error {
	if prompter.writer == nil {
		return nil
	}
	_, writeError := io.WriteString(prompter.writer, prompt)
	return writeError
}
