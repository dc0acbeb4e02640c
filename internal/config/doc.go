// Package config resolves Toolsmith settings from ~/.toolsmith/config.yaml,
// TOOLSMITH_* and OPENAI_* environment variables, and a .env file in the
// target repository. The result is an explicit Config value that the CLI
// threads through the pipeline; nothing downstream reads the environment.
package config
