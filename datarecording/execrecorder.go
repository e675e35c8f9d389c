package datarecording

import (
	"os"
	"strings"
	"time"
)

const execTableName = "exec_info"

type execInfo struct {
	Property string
	Value    string
}

// An ExecRecorder records when and how the program was invoked.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []execInfo
}

// NewExecRecorder creates the exec_info table in the recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(execTableName, execInfo{})

	return &ExecRecorder{recorder: recorder}
}

// Start logs the start time, the command line and the working directory.
func (e *ExecRecorder) Start() {
	e.add("Start Time", time.Now().Format(time.RFC3339Nano))
	e.add("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err == nil {
		e.add("Working Directory", cwd)
	}
}

// End writes the entries into the recorder along with the end time.
func (e *ExecRecorder) End() {
	e.add("End Time", time.Now().Format(time.RFC3339Nano))

	for _, entry := range e.entries {
		e.recorder.InsertData(execTableName, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}

func (e *ExecRecorder) add(property, value string) {
	e.entries = append(e.entries, execInfo{Property: property, Value: value})
}
