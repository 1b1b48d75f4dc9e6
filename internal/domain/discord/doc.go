// Package discord holds the domain vocabulary of the updater: the injection
// flavor chosen per run, the version marker sentinels and the workflow states.
package discord
