// Package electionregistry implements the single-election voting registry
// inside the governance context.
//
// An owner registers voters, opens and closes proposal registration, opens
// and closes the voting session and finally tallies the votes. The workflow
// state machine, the voter and proposal registries and the tally live in the
// domain aggregate; every accepted change is committed together with its
// notification in an outbox that workers relay to the event bus.
package electionregistry
