// Package flock provides exclusive, non-blocking file locks on Unix and
// Windows. gitassist holds one on .gitassist/run.lock for the length of a
// pipeline run or branch cleanup so two runs never touch the same working
// tree at once.
//
//	lock, err := flock.Acquire(path)
//	if errors.Is(err, flock.ErrLocked) {
//	    // another run holds it
//	}
//	defer lock.Release()
package flock
