package actors

import (
	"bufio"
	"os"

	"github.com/flowgraph/flowgraph"
)

// LineReader pops a file path from its inport and produces one Stream
// item per line, trimmed of its trailing newline. It replaces the Python
// original's lazy key/value pseudo-map with an explicit Result.Stream.
type LineReader struct {
	*flowgraph.BaseActor

	inportName  string
	outportName string
}

// NewLineReader constructs a LineReader actor named name, reading the
// path from inportName and emitting each line on outportName.
func NewLineReader(name, inportName, outportName string) *LineReader {
	r := &LineReader{inportName: inportName, outportName: outportName}
	r.BaseActor = flowgraph.NewBaseActor(r, name)
	r.InPorts().Append(inportName)
	r.OutPorts().Append(outportName)
	return r
}

// GetRunArgs pops the pending file path.
func (r *LineReader) GetRunArgs() ([]interface{}, map[string]interface{}) {
	port, _ := r.InPorts().Get(r.inportName)
	v, err := port.Pop()
	if err != nil {
		panic(err)
	}
	return []interface{}{v}, nil
}

// Run reads the file line by line and streams each line out.
func (r *LineReader) Run(args []interface{}, kwargs map[string]interface{}) (flowgraph.Result, error) {
	path, _ := args[0].(string)
	f, err := os.Open(path)
	if err != nil {
		return flowgraph.Empty(), err
	}
	defer f.Close()

	var items []flowgraph.StreamItem
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		items = append(items, flowgraph.StreamItem{Port: r.outportName, Value: scanner.Text()})
	}
	if err := scanner.Err(); err != nil {
		return flowgraph.Empty(), err
	}
	return flowgraph.Stream(items...), nil
}

// Iterator pops a collection from its inport and produces one Stream item
// per element, in order.
type Iterator struct {
	*flowgraph.BaseActor

	inportName  string
	outportName string
}

// NewIterator constructs an Iterator actor named name, reading the
// collection from inportName and emitting each element on outportName.
func NewIterator(name, inportName, outportName string) *Iterator {
	it := &Iterator{inportName: inportName, outportName: outportName}
	it.BaseActor = flowgraph.NewBaseActor(it, name)
	it.InPorts().Append(inportName)
	it.OutPorts().Append(outportName)
	return it
}

// GetRunArgs pops the pending collection.
func (it *Iterator) GetRunArgs() ([]interface{}, map[string]interface{}) {
	port, _ := it.InPorts().Get(it.inportName)
	v, err := port.Pop()
	if err != nil {
		panic(err)
	}
	return []interface{}{v}, nil
}

// Run streams one item per element of the popped collection.
func (it *Iterator) Run(args []interface{}, kwargs map[string]interface{}) (flowgraph.Result, error) {
	collection, _ := args[0].([]interface{})
	items := make([]flowgraph.StreamItem, len(collection))
	for i, v := range collection {
		items[i] = flowgraph.StreamItem{Port: it.outportName, Value: v}
	}
	return flowgraph.Stream(items...), nil
}
