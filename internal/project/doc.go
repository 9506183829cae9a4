// Package project runs the generator pipeline for one Koa 2 project:
// plan, render, classify against the target directory, then write.
package project
