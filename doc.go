/*
Package hwbind exposes the signals of a compiled digital circuit simulation
model to a host program: test benches, co-simulation drivers and tracers.

Signals of arbitrary bit width are marshalled as fixed width host values
according to their representation class:

	Narrow    width <= 32   one uint32          Get32, Set32
	Wide      33..64        one uint64          Get64, Set64
	Extended  width > 64    ceil(width/32) words, word 0 least significant
	                                            GetWord, SetWord

Memory arrays are read element by element (GetElem32, GetElem64,
GetElemWord), and per-rule boolean flags packed in rule vectors are accessed
with GetBit and SetBit.

A Binding resolves every access at run time against a descriptor Table and
rejects out-of-contract accesses (bad index, stale handle, write to a non
input, wrong accessor family) with an error matching ErrOutOfContract,
without touching the model.

Model instances are created with Binding.Construct and released with
Binding.Destruct. The github.com/db47h/hwbind/hwsim package provides a
word-level simulator implementing Model.
*/
package hwbind
