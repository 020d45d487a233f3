// Command folio serves a folio site and manages its content.
package main

func main() {
	Execute()
}
