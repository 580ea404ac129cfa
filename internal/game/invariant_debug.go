//go:build debug

package game

func init() {
	strictInvariants = true
}
