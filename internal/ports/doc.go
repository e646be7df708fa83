// Package ports defines the interfaces (ports) that connect the dispatch
// core to infrastructure.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// core needs from external systems without specifying how those needs are
// fulfilled.
//
// # Port Interfaces
//
//   - [PacketConn]: write side of a connected datagram socket
//   - [Dialer]: opens a datagram socket, injectable for tests
//   - [UnitSender]: transmits one encoded wire unit
//   - [GatedSender]: UnitSender with dedup/throttle/pool semantics in front
//
// The dispatch pipeline and performance gate depend only on these
// interfaces; the transport package implements them against real UDP
// sockets, and tests implement them with in-memory fakes.
package ports
