// Package inmemdb provides map-backed repositories for tests and local
// development. Rows are copied in and out so callers never share memory
// with the store.
package inmemdb

import (
	"sync"

	"github.com/projectklase/comunika/core/class"
	"github.com/projectklase/comunika/core/hygiene"
	"github.com/projectklase/comunika/core/post"
	"github.com/projectklase/comunika/core/staff"
	"github.com/projectklase/comunika/core/student"
)

type (
	DB struct {
		student *studentTable
		post    *postTable
		class   *classTable
		staff   *staffTable
		report  *reportTable
	}

	studentTable struct {
		t         map[string]*student.Student
		guardians map[string][]student.Guardian // keyed by student ID
		mutex     sync.RWMutex
	}

	postTable struct {
		t     map[string]*post.Post
		mutex sync.RWMutex
	}

	classTable struct {
		t     map[string]*class.Class
		mutex sync.RWMutex
	}

	staffTable struct {
		t     map[string]*staff.Staff
		mutex sync.RWMutex
	}

	reportTable struct {
		t     []hygiene.Report // insertion order
		mutex sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		student: &studentTable{
			t:         make(map[string]*student.Student),
			guardians: make(map[string][]student.Guardian),
		},
		post:   &postTable{t: make(map[string]*post.Post)},
		class:  &classTable{t: make(map[string]*class.Class)},
		staff:  &staffTable{t: make(map[string]*staff.Staff)},
		report: &reportTable{},
	}
	return db, nil
}
