// Package consumertest provides a scripted transport and canned API bodies
// for exercising consumer clients without a network.
package consumertest
