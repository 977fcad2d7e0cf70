package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/errors"
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"
)

// exitError carries a semantic exit code out of a command's RunE.
type exitError struct {
	code foundry.ExitCode
	msg  string
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code foundry.ExitCode, msg string, err error) error {
	return &exitError{code: code, msg: msg, err: err}
}

// ExitCodeFor returns the semantic exit code attached to err, or
// foundry.ExitFailure.
func ExitCodeFor(err error) foundry.ExitCode {
	var ee *exitError
	if stderrors.As(err, &ee) {
		return ee.code
	}
	return foundry.ExitFailure
}

// ExitWithCode exits the program with a semantic foundry exit code and logs the error.
// logger may be nil for failures before logger initialization.
func ExitWithCode(logger *logging.Logger, exitCode foundry.ExitCode, msg string, err error) {
	info, ok := foundry.GetExitCodeInfo(exitCode)
	if !ok || logger == nil {
		ExitWithCodeStderr(exitCode, msg, err)
		return
	}

	fields := []zap.Field{
		zap.Int("exit_code", info.Code),
		zap.String("exit_name", info.Name),
		zap.String("exit_description", info.Description),
		zap.String("exit_category", info.Category),
	}

	if envelope, ok := err.(*errors.ErrorEnvelope); ok {
		fields = append(fields,
			zap.String("error_code", envelope.Code),
			zap.String("error_message", envelope.Message),
			zap.String("correlation_id", envelope.CorrelationID),
		)
		if envelope.Context != nil {
			fields = append(fields, zap.Any("error_context", envelope.Context))
		}
		if originalErr, ok := envelope.Original.(error); ok {
			err = originalErr
		}
	}

	fields = append(fields, zap.Error(err))
	logger.Error(msg, fields...)
	os.Exit(info.Code)
}

// ExitWithCodeStderr writes the failure to stderr and exits.
// Use this for early failures before logger initialization.
func ExitWithCodeStderr(exitCode foundry.ExitCode, msg string, err error) {
	fmt.Fprintln(os.Stderr, fatalLine(msg, err))

	info, ok := foundry.GetExitCodeInfo(exitCode)
	if !ok {
		os.Exit(int(exitCode))
	}
	fmt.Fprintf(os.Stderr, "Exit Code: %d (%s) - %s\n", info.Code, info.Name, info.Description)
	os.Exit(info.Code)
}

func fatalLine(msg string, err error) string {
	if err == nil {
		return "FATAL: " + msg
	}
	if envelope, ok := err.(*errors.ErrorEnvelope); ok {
		line := fmt.Sprintf("FATAL: %s [%s]: %s", msg, envelope.Code, envelope.Message)
		if originalErr, ok := envelope.Original.(error); ok {
			line += fmt.Sprintf(" (%v)", originalErr)
		}
		return line
	}
	return fmt.Sprintf("FATAL: %s: %v", msg, err)
}
