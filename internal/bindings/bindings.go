//go:build !ios && !android && (amd64 || arm64)

// Package bindings handles loading the glib shared libraries and exposing
// their handles for purego function registration.
package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"

	"github.com/dashea/gibase/internal/platform"
)

// ErrNotLoaded is returned when glib functions are called before Load().
var ErrNotLoaded = errors.New("gibase: glib libraries not loaded; call gibase.Init() first")

// ErrLibraryNotFound is returned when a required glib library cannot be found.
var ErrLibraryNotFound = errors.New("gibase: glib library not found")

// Library handles
var (
	libGLib    uintptr
	libGObject uintptr

	loaded   bool
	loadOnce sync.Once
	loadErr  error
)

// IsLoaded returns true if the glib libraries have been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// Load loads the glib libraries. It is safe to call multiple times;
// subsequent calls are no-ops. Returns an error if the libraries cannot be
// found or loaded.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

func doLoad() error {
	var err error

	// gobject depends on glib, so glib loads first.
	libGLib, err = loadLibrary("glib-2.0", []int{0})
	if err != nil {
		return fmt.Errorf("loading libglib: %w", err)
	}

	libGObject, err = loadLibrary("gobject-2.0", []int{0})
	if err != nil {
		return fmt.Errorf("loading libgobject: %w", err)
	}

	return nil
}

// loadLibrary attempts to load a library by trying versioned names.
func loadLibrary(name string, versions []int) (uintptr, error) {
	for _, searchPath := range LibrarySearchPaths() {
		for _, ver := range versions {
			libName := platform.FormatLibraryName(name, ver)
			fullPath := filepath.Join(searchPath, libName)

			lib, err := tryOpen(fullPath)
			if err == nil {
				return lib, nil
			}
		}

		// Try unversioned name
		libName := platform.FormatLibraryName(name, -1)
		fullPath := filepath.Join(searchPath, libName)
		lib, err := tryOpen(fullPath)
		if err == nil {
			return lib, nil
		}
	}

	// Try just the library name (let the system find it)
	for _, ver := range versions {
		libName := platform.FormatLibraryName(name, ver)
		lib, err := tryOpen(libName)
		if err == nil {
			return lib, nil
		}
	}

	// Try unversioned
	libName := platform.FormatLibraryName(name, -1)
	lib, err := tryOpen(libName)
	if err == nil {
		return lib, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// tryOpen attempts to open a library with RTLD_NOW | RTLD_GLOBAL.
// RTLD_GLOBAL is required: gobject resolves symbols against glib.
func tryOpen(path string) (uintptr, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, err
	}
	return lib, nil
}

// FindLibrary searches for a library and returns its full path.
// This is useful for diagnostics.
func FindLibrary(name string, versions []int) (string, error) {
	for _, searchPath := range LibrarySearchPaths() {
		for _, ver := range versions {
			libName := platform.FormatLibraryName(name, ver)
			fullPath := filepath.Join(searchPath, libName)
			if _, err := os.Stat(fullPath); err == nil {
				return fullPath, nil
			}
		}
		// Try unversioned
		libName := platform.FormatLibraryName(name, -1)
		fullPath := filepath.Join(searchPath, libName)
		if _, err := os.Stat(fullPath); err == nil {
			return fullPath, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// LibrarySearchPaths returns platform-specific library search paths.
// GIBASE_LIBRARY_PATH entries take priority on every platform.
func LibrarySearchPaths() []string {
	var paths []string

	if giPath := os.Getenv("GIBASE_LIBRARY_PATH"); giPath != "" {
		paths = append(paths, filepath.SplitList(giPath)...)
	}

	switch runtime.GOOS {
	case "linux":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/local/lib",
			"/usr/lib",
			"/lib/x86_64-linux-gnu",
			"/lib",
		)

	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		paths = append(paths,
			"/opt/homebrew/lib",          // Apple Silicon
			"/usr/local/lib",             // Intel
			"/opt/homebrew/opt/glib/lib", // Homebrew glib
			"/usr/local/opt/glib/lib",    // Homebrew glib (Intel)
		)

	case "windows":
		if winPath := os.Getenv("PATH"); winPath != "" {
			paths = append(paths, filepath.SplitList(winPath)...)
		}
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}
		// MSYS2 is the usual source of glib DLLs on Windows.
		paths = append(paths,
			"C:\\msys64\\mingw64\\bin",
			"C:\\msys64\\ucrt64\\bin",
		)

	case "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib",
		)
	}

	return paths
}

// LibGLib returns the glib library handle.
func LibGLib() uintptr {
	return libGLib
}

// LibGObject returns the gobject library handle.
func LibGObject() uintptr {
	return libGObject
}
