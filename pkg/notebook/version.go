package notebook

// Version is the release of the notebook module.
const Version = "0.1.0"
