// Package summation provides three equivalent implementations of the
// arithmetic sum 1+2+...+n. All variants return 0 for n < 1.
package summation

// Iterative accumulates the sum with a simple loop. O(n) time.
func Iterative(n int64) int64 {
	var sum int64
	for i := int64(1); i <= n; i++ {
		sum += i
	}
	return sum
}

// ClosedForm computes the sum using the formula n*(n+1)/2. O(1) time.
func ClosedForm(n int64) int64 {
	if n < 1 {
		return 0
	}
	return n * (n + 1) / 2
}

// Recursive computes the sum by recursion on n. O(n) time and stack depth.
func Recursive(n int64) int64 {
	if n < 1 {
		return 0
	}
	if n == 1 {
		return 1
	}
	return n + Recursive(n-1)
}
