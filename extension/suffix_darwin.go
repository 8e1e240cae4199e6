package extension

// LibrarySuffix is appended to requested module names to find their library.
const LibrarySuffix = ".dylib"
