// Package devnode implements a minimal fake database node for local
// experiments and tests.
//
// A devnode answers exactly the requests nodectl sends:
//
//	GET /               {"couchdb":"Welcome","version":"...","node":"..."}
//	GET /_active_tasks  the configured task list, [] by default
//
// Any other path is a JSON 404. The task list can be set in code with
// SetTasks or read from a JSON file with LoadTasks, which fills in the
// "node" field of tasks that lack one.
//
// Typical local setup:
//
//	DEVNODE_LISTEN=:15984 DEVNODE_TASKS=tasks.json ./devnode &
//	nodectl config set local node0 http://127.0.0.1:15984
//	nodectl isonline local
//	nodectl activetasks local replication
package devnode
