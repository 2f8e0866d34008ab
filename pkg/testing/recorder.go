package testing

import (
	"fmt"
	"strings"

	"github.com/augmify/katana/pkg/core"
	"github.com/augmify/katana/pkg/view"
)

// Recorder is a [core.Container] backed by a [view.Host] that logs every
// call made to it or to any slot added under it.
type Recorder struct {
	id   string
	host *view.Host
	log  *opLog
}

type opLog struct {
	ops    []string
	nextID int
	byHost map[*view.Host]*Recorder
}

var _ core.Container = (*Recorder)(nil)

// NewRecorder returns an empty root recorder.
func NewRecorder() *Recorder {
	log := &opLog{byHost: make(map[*view.Host]*Recorder)}
	root := &Recorder{id: "root", host: view.NewRoot(), log: log}
	log.byHost[root.host] = root
	return root
}

// ID returns the slot id ("root" or "vN").
func (r *Recorder) ID() string {
	return r.id
}

// Host returns the backing host.
func (r *Recorder) Host() *view.Host {
	return r.host
}

// View returns the view held by this slot.
func (r *Recorder) View() any {
	return r.host.View()
}

func (r *Recorder) Add(newView func() any) core.Container {
	r.log.nextID++
	child := &Recorder{
		id:   fmt.Sprintf("v%d", r.log.nextID),
		host: r.host.Add(newView).(*view.Host),
		log:  r.log,
	}
	r.log.byHost[child.host] = child
	r.log.record("add %s", child.id)
	return child
}

func (r *Recorder) Update(apply func(view any)) {
	r.host.Update(apply)
	r.log.record("update %s: %s", r.id, view.Describe(r.host.View()))
}

func (r *Recorder) Remove(child core.Container) {
	c := child.(*Recorder)
	r.log.record("remove %s", c.id)
	r.host.Remove(c.host)
}

func (r *Recorder) Children() []core.Container {
	hosts := r.host.Hosts()
	out := make([]core.Container, len(hosts))
	for i, h := range hosts {
		out[i] = r.log.byHost[h]
	}
	return out
}

func (r *Recorder) BringToFront(child core.Container) {
	c := child.(*Recorder)
	r.log.record("front %s", c.id)
	r.host.BringToFront(c.host)
}

// Ops returns the operations logged since the last TakeOps.
func (r *Recorder) Ops() []string {
	return append([]string(nil), r.log.ops...)
}

// TakeOps returns the operations logged since the last TakeOps and clears
// the log.
func (r *Recorder) TakeOps() []string {
	ops := r.log.ops
	r.log.ops = nil
	return ops
}

// Tree renders the slots below r with their ids, one per line.
func (r *Recorder) Tree() string {
	var sb strings.Builder
	r.write(&sb, 0)
	return sb.String()
}

func (r *Recorder) write(sb *strings.Builder, depth int) {
	for _, h := range r.host.Hosts() {
		child := r.log.byHost[h]
		fmt.Fprintf(sb, "%s%s %s\n", strings.Repeat("  ", depth), child.id, view.Describe(h.View()))
		child.write(sb, depth+1)
	}
}

func (l *opLog) record(format string, args ...any) {
	l.ops = append(l.ops, fmt.Sprintf(format, args...))
}
