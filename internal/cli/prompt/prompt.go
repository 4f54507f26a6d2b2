// Package prompt provides interactive terminal prompts for CLI commands.
package prompt

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// IsAborted returns true if the error indicates the user aborted.
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, ErrAborted)
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsAborted(err) {
		return ErrAborted
	}
	return err
}

// Confirm asks a yes/no question. An empty answer picks defaultYes.
func Confirm(label string, defaultYes bool) (bool, error) {
	def := "y/N"
	if defaultYes {
		def = "Y/n"
	}
	p := promptui.Prompt{
		Label:     fmt.Sprintf("%s [%s]", label, def),
		IsConfirm: true,
	}

	result, err := p.Run()
	if err != nil {
		// promptui reports "n" as ErrAbort.
		if errors.Is(err, promptui.ErrAbort) {
			if result == "" {
				return defaultYes, nil
			}
			return false, nil
		}
		return false, wrapError(err)
	}
	return true, nil
}

// ConfirmWithForce skips the question when force is set.
func ConfirmWithForce(label string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	return Confirm(label, false)
}

// Option is one choice of Select.
type Option struct {
	Label       string
	Value       string
	Description string
}

// Select asks for one of options and returns its Value. The list starts
// on the option whose Value is def.
func Select(label string, options []Option, def string) (string, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label | white }}",
		Selected: "* {{ .Label | green }}",
		Details: `
{{ "Description:" | faint }}	{{ .Description }}`,
	}

	start := 0
	for i, o := range options {
		if o.Value == def {
			start = i
		}
	}

	p := promptui.Select{
		Label:     label,
		Items:     options,
		Templates: templates,
		Size:      len(options),
		CursorPos: start,
	}
	i, _, err := p.Run()
	if err != nil {
		return "", wrapError(err)
	}
	return options[i].Value, nil
}

// Input asks for free text. validate may be nil.
func Input(label, def string, validate func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Default:  def,
		Validate: validate,
	}
	result, err := p.Run()
	return result, wrapError(err)
}

// Port validates a TCP port number.
func Port(input string) error {
	port, err := strconv.Atoi(input)
	if err != nil {
		return fmt.Errorf("must be a valid integer")
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("must be a valid port (1-65535)")
	}
	return nil
}

// InputPort asks for a TCP port.
func InputPort(label string, def int) (int, error) {
	result, err := Input(label, strconv.Itoa(def), Port)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(result)
}
