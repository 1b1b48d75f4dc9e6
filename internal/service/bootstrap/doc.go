// Package bootstrap makes sure git, npm and pnpm are installed before a
// rebuild, offering to install missing ones with apt-get after the operator
// agrees.
package bootstrap
