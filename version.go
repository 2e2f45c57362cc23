package izanami

// Version of the interpreter, reported by the REPL banner.
const Version = "0.3.0"
