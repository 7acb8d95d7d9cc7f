// Command ls-orrery is a terminal orrery: a simulated planetary system
// drawn top-down, with a seeded background star field.
package main

func main() {
	Execute()
}
