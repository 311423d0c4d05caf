package actors

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/flowgraph/flowgraph"
)

// Shell runs a command with one string of input appended as an argument
// (or, in shell mode, interpolated into a shell line), and reports its
// exit code and trimmed stdout/stderr. It mirrors the Python original's
// ShellRunner.
type Shell struct {
	*flowgraph.BaseActor

	command string
	shell   bool
}

// NewShell constructs a Shell actor named name running command. When
// shell is true, command and the input are joined and executed via "sh
// -c"; otherwise command is split into argv and the input is appended as
// its final argument.
func NewShell(name, command string, shell bool) *Shell {
	s := &Shell{command: command, shell: shell}
	s.BaseActor = flowgraph.NewBaseActor(s, name)
	s.InPorts().Append("stdin")
	s.OutPorts().Append("ret")
	s.OutPorts().Append("stdout")
	s.OutPorts().Append("stderr")
	return s
}

// GetRunArgs pops the pending input string.
func (s *Shell) GetRunArgs() ([]interface{}, map[string]interface{}) {
	port, _ := s.InPorts().Get("stdin")
	v, err := port.Pop()
	if err != nil {
		panic(err)
	}
	return []interface{}{v}, nil
}

// Run executes the configured command with the input appended, returning
// the exit code and trimmed stdout/stderr.
func (s *Shell) Run(args []interface{}, kwargs map[string]interface{}) (flowgraph.Result, error) {
	input, _ := args[0].(string)

	var cmd *exec.Cmd
	if s.shell {
		cmd = exec.Command("sh", "-c", strings.TrimSpace(s.command+" "+input))
	} else {
		fields := strings.Fields(s.command)
		cmd = exec.Command(fields[0], append(fields[1:], input)...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	} else if runErr != nil {
		exitCode = -1
	}

	return flowgraph.Emit(map[string]interface{}{
		"ret":    exitCode,
		"stdout": strings.TrimSpace(stdout.String()),
		"stderr": strings.TrimSpace(stderr.String()),
	}), nil
}
