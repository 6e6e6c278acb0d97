package gobigquery

// Version is the version of the gobigquery module.
const Version = "0.1.0"
