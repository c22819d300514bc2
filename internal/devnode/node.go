package devnode

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/dreamware/nodectl/internal/tasks"
)

// Version is reported in the welcome document.
const Version = "3.3.3"

// Node is an in-memory stand-in for a database node. It answers the two
// endpoints nodectl uses and nothing else.
//
// Thread-safe: the task list may be replaced while requests are served.
type Node struct {
	// Name identifies the node in the welcome document and in the "node"
	// field of tasks that do not carry one.
	Name string

	// mu protects tasks.
	mu    sync.RWMutex
	tasks []tasks.Task
}

// New creates a node with no active tasks.
//
// Example:
//
//	node := devnode.New("node1@127.0.0.1")
//	node.SetTasks([]tasks.Task{{"type": "replication", "source": "a", "target": "b"}})
//	http.ListenAndServe(":5984", node.Handler())
func New(name string) *Node {
	return &Node{Name: name, tasks: []tasks.Task{}}
}

// SetTasks replaces the active task list.
func (n *Node) SetTasks(list []tasks.Task) {
	if list == nil {
		list = []tasks.Task{}
	}
	n.mu.Lock()
	n.tasks = list
	n.mu.Unlock()
}

// Tasks returns the current task list.
func (n *Node) Tasks() []tasks.Task {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.tasks
}

// LoadTasks reads a JSON array of tasks from path and makes it the active
// task list.
func (n *Node) LoadTasks(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read tasks: %w", err)
	}
	var list []tasks.Task
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse tasks %s: %w", path, err)
	}
	for _, t := range list {
		if _, ok := t["node"]; !ok {
			t["node"] = n.Name
		}
	}
	n.SetTasks(list)
	return nil
}

// Handler returns the node's HTTP API:
//
//	GET /               welcome document
//	GET /_active_tasks  JSON array of active tasks
func (n *Node) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", n.handleWelcome)
	mux.HandleFunc("/_active_tasks", n.handleActiveTasks)
	return mux
}

func (n *Node) handleWelcome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "reason": "Database does not exist."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"couchdb": "Welcome",
		"version": Version,
		"node":    n.Name,
	})
}

func (n *Node) handleActiveTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed", "reason": "Only GET,HEAD allowed"})
		return
	}
	writeJSON(w, http.StatusOK, n.Tasks())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
