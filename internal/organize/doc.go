// Package organize runs organize jobs over the unorganized catalog and
// undoes completed runs. Jobs stream progress events to their caller and
// serialize against each other through a file lock.
package organize
