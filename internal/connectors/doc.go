// Package connectors holds clients for remote services the CLI talks to.
//
// The only connector is codingnet, the Coding.net REST API client used by
// every command that needs the network.
package connectors
