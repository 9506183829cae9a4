// Package filesystem inspects target directories: whether they already
// hold content, and which files a generator run left in them.
//
// # Usage
//
// Check a target before generating:
//
//	empty, err := filesystem.IsEmpty(dir)
//
// List every file, for comparing against the creation log:
//
//	files, err := filesystem.ListFiles(dir) // ["app.js", "bin/www", ...]
//
// Custom walk with ignore patterns:
//
//	err := filesystem.Walk(dir, filesystem.WalkOptions{
//	    IgnorePatterns: []string{"*.log"},
//	    SkipHidden:     true,
//	}, func(rel string, d fs.DirEntry) error {
//	    fmt.Println(rel)
//	    return nil
//	})
package filesystem
