// Package services backs the driving ports with the config and
// credentials stores. It validates what the CLI hands it and never
// talks to the network.
package services
