package utils

// RELTOL is the relative agreement required between the kernel and its
// reference evaluation
const RELTOL = 1.e-6
